package main

import "github.com/nmissi-nadia/liqaaspace/cmd"

func main() {
	cmd.Execute()
}
