package main

import "github.com/roboco-io/lessonplan/internal/cli"

var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.Execute()
}
