// Package driving declares what the CLI, the MCP server and the folder
// watcher may ask of the core: registering owners, uploading documents,
// retrieving and answering, corpus stats and settings. internal/core/services
// implements every interface here.
package driving
