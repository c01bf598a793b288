package main

import "github.com/kamal-hamza/bobina/cmd"

func main() {
	cmd.Execute()
}
