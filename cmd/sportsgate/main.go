// Package main is the entry point for sportsgate.
//
//	@title						sportsgate API
//	@version					1.0
//	@description				Sports fixtures gateway with API keys, plan limits, caching and a fallback catalog.
//
//	@BasePath					/
//
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						X-API-Key
//	@description				API key for /api endpoints
//
//	@securityDefinitions.apikey	AdminAuth
//	@in							header
//	@name						X-Admin-Token
//	@description				Admin token for /admin endpoints
package main

func main() {
	Execute()
}
