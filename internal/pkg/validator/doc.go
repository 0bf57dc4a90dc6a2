// Package validator wraps struct validation behind a small interface so
// usecases can validate their inputs without binding to a specific library.
package validator
