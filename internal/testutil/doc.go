// Package testutil holds test doubles shared by package tests.
package testutil
