package main

import "github.com/KaramelBytes/dataqc-cli/cmd"

func main() {
	cmd.Execute()
}
