// Package file keeps docvault's settings and prompts under the config
// directory (~/.docvault by default): config.toml for settings and
// prompts/*.txt for the templates used by ask.
package file
