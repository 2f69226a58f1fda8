package handler

const (
	// BaseLayout is the layout template every page renders into.
	BaseLayout = "layouts/base"
	// RootPath is redirected to the home page.
	RootPath = "/"
)
