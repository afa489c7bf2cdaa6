package main

import "github.com/meysamhadeli/codigest/cmd"

func main() {
	cmd.Execute()
}
