package main

import "github.com/dukerupert/choreboard/internal/cli"

func main() {
	cli.Execute()
}
