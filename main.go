package main

import "subtran/internal/cli"

func main() {
	cli.Main()
}
