package main

import "github.com/r2708/depmender-sub000/cmd"

func main() {
	cmd.Execute()
}
