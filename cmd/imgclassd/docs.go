package main

// General API documentation for swaggo. Run `swag init -g cmd/imgclassd/docs.go`
// to regenerate docs/.
//
// @title           imgclassd API
// @version         1.0
// @description     Image classification over HTTP with a browser UI and PDF reports.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
