package main

// General API documentation for swaggo. Run `swag init -g cmd/instanced/docs.go`
// to regenerate ./docs.
//
// @title           instanced API
// @version         1.0
// @description     Asynchronous instance lifecycle commands with a broadcast event stream.
//
// @contact.name   instanced maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
