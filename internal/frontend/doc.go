// Package frontend prepares the host application for one front-end
// variant: it writes the entry point that resolves module pages, points
// every Blade @vite directive at that entry, and records the choice in the
// project's .env.
package frontend
