// Command creditapproval trains and compares credit approval classifiers on
// a crx-style CSV file.
//
//	creditapproval run --data crx.data
//	creditapproval describe --data crx.data
//	creditapproval config init credit.yaml
package main

func main() {
	Execute()
}
