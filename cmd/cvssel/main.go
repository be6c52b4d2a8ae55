// Command cvssel selects and scores CVSS vectors from several sources.
//
//	cvssel assess --input findings.yaml --config cvssel.yaml
//	cvssel score CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H
//	cvssel header "CVSS:3.1 NVD + CVSS:3.1 Assessment"
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
