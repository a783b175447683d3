package main

import "github.com/asiftp654/Bhive/cmd"

func main() {
	cmd.Execute()
}
