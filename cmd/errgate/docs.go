package main

// General API documentation for swaggo. Run `swag init -g cmd/errgate/docs.go` to regenerate docs.
//
// @title           errgate API
// @version         1.0
// @description     HTTP API whose failures are reported as JSON strings carrying a trace id.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
