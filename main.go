package main

import "github.com/BhaskarKeelu1008/salesversedemo-be-sub002/cmd"

func main() {
	cmd.Execute()
}
