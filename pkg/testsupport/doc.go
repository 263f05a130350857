// Package testsupport holds fixture loading and golden comparison helpers
// shared by package tests. Goldens are refreshed with UPDATE_GOLDENS=1.
package testsupport
