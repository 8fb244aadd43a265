package main

// General API documentation for swaggo. The served document is registered by
// internal/httpapi/swagger.go when built with -tags=swagger.
//
// @title           opinio API
// @version         1.0
// @description     HTTP control API of the opinio client engine: dispatch events, read views and match routes.
//
// @contact.name   opinio maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
