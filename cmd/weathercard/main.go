// Package main provides the weathercard terminal client.
package main

import "github.com/weathercard/weathercard/cmd/weathercard/cmd"

func main() {
	cmd.Execute()
}
