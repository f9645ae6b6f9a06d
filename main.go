package main

import "github.com/KaramelBytes/comboforge-cli/cmd"

func main() {
	cmd.Execute()
}
