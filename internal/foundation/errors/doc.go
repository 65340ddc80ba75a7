// Package errors provides the classified error primitives used across docsite.
//
// Every failure a build can report is a ClassifiedError carrying a category
// (config, render, broken_link, route_collision, index_build, ...), a severity
// and structured context such as the offending document path. Errors are
// created through the fluent ErrorBuilder:
//
//	err := errors.RouteCollisionError("duplicate route").
//		WithContext("route", "/guide").
//		WithContext("sources", []string{"guide.md", "guide/index.md"}).
//		Build()
//
// Warnings (SeverityWarning) never stop a build; they are collected in the
// build report. The CLI adapter maps categories to process exit codes.
package errors
