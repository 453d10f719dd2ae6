package tui

import "errors"

// ErrMissingQueue is returned when the conversion queue is not provided.
var ErrMissingQueue = errors.New("tui: conversion queue is required")

// ErrMissingSettings is returned when the settings service is not provided.
var ErrMissingSettings = errors.New("tui: settings service is required")

// ErrMissingConnectivity is returned when the connectivity service is not provided.
var ErrMissingConnectivity = errors.New("tui: connectivity service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
