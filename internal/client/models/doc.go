// Package models defines client-side data models used by the recordkeeper CLI.
package models
