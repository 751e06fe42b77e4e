// Command areaeditor-cli is the command-line front end for the area
// catalog editor.
package main

import "areacatalog/cmd/areaeditor-cli/cmd"

func main() {
	cmd.Execute()
}
