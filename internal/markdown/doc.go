// Package markdown reads Markdown documents with front matter from an fs.FS
// and renders bodies to HTML. It knows nothing about collections or
// schemas; front matter is returned as a raw map for the schema package.
package markdown
