package main

import "camclone/internal/cli"

func main() {
	cli.Execute()
}
