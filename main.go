package main

import "github.com/KaramelBytes/csvlens-cli/cmd"

func main() {
	cmd.Execute()
}
