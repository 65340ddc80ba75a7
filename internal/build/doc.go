// Package build runs the documentation build pipeline.
//
// A build is a fixed sequence of stages over a shared BuildState:
//
//	discover_docs → assign_routes → render_docs → build_sidebars →
//	check_links → build_index → compose_theme → assemble_manifest → publish
//
// Each stage either succeeds, possibly recording warnings in the
// BuildReport, or fails the whole build. Rendering and search text
// extraction fan out over documents; every other stage is sequential.
// Publishing goes through a staging directory, so a failed or canceled
// build leaves the previous output in place.
package build
