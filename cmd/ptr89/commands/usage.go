package commands

import "io"

const usageText = `Usage: ptr89 [arguments]

Global options:
  -h, --help               show this help
  -f, --file FILE          fullflash file [required]
  -b, --base HEX           fullflash base address [default: A0000000]
  -a, --align N            search align [default: 1]
  -V, --verbose            enable debug
  -J, --json               output as JSON
  -o, --output FILE        write the report to FILE
  -j, --jobs N             parallel searches [default: CPU count]
      --cache FILE         cache results in an SQLite database
      --config FILE        YAML config file [env: PTR89_CONFIG]
      --progress           show a progress bar on stderr

Find patterns:
  -p, --pattern STRING     pattern to search
  -n, --limit NUMBER       limit results count [default 100]

Find xrefs:
  -x, --xref HEX           address to search
  -n, --limit NUMBER       limit results count [default 100]

Find patterns from functions.ini:
  --from-ini FILE          path or URL of functions.ini or a YAML library

Prettify pattern:
  --prettify STRING        pattern

`

func printUsage(w io.Writer) {
	_, _ = io.WriteString(w, usageText)
}
