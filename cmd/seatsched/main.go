package main

import "github.com/example/seatsched/cmd"

func main() {
	cmd.Execute()
}
