// Command linkcheck is an offline link checker for rendered static
// websites: it walks a site root, extracts every internal href/src, and
// reports references to documents or anchors that do not exist.
package main

func main() {
	Execute()
}
