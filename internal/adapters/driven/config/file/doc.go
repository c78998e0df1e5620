// Package file persists Pulse configuration to ~/.pulse/config.toml.
package file
