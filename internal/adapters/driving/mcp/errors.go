// Package mcp provides an MCP (Model Context Protocol) server adapter for pipe3d.
// It lets AI assistants queue GLB assets for conversion and follow their progress.
package mcp

import "errors"

// ErrMissingQueue is returned when the conversion queue is not provided.
var ErrMissingQueue = errors.New("mcp: conversion queue is required")
