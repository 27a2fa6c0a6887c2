package main

import "github.com/ardriveapp/astatine/cmd"

func main() {
	cmd.Execute()
}
