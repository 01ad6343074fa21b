package azdo

// Version is the azdo-mcp release version.
const Version = "0.3.0"
