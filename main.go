package main

import (
	_ "time/tzdata"

	"specials-server/cmd"
)

func main() {
	cmd.Execute()
}
