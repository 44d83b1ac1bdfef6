package main

import "github.com/alexiusacademia/goseis/cmd"

func main() {
	cmd.Execute()
}
