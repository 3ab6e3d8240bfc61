package filewhisperer

// GIT_HASH is the commit the binary was built from. The CI overrides it
// through the linker.
var GIT_HASH = "<unknown>"

// VERSION is the release the binary was built from. The CI overrides it
// through the linker.
var VERSION = "<unknown>"
