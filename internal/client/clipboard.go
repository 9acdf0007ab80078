package client

import "github.com/atotto/clipboard"

// writeClipboard is swapped out in tests; headless machines have no
// clipboard.
var writeClipboard = clipboard.WriteAll
