// Package web embeds the page templates and static assets.
package web

import "embed"

// TemplatesFS holds the page and its HTMX fragments.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

//go:embed static/*
var StaticFS embed.FS
