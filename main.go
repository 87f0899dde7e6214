package main

import "download_planner/internal/cli"

func main() {
	cli.Execute()
}
