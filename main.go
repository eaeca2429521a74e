// The main package for the webcite executable.
package main

import "github.com/JakeFAU/webcite/cmd"

func main() {
	cmd.Execute()
}
