// Package roots classifies the children of a base directory into roots and
// locates files inside them.
//
// A base directory holds sibling trees that mirror each other's layout. The
// Classifier recognizes them by name using a types.Layout:
//
//	app-react                 core
//	app-react-interlayer      interlayer
//	app-react-red-theme       brand "red"
//
// Classification is recomputed on every call; nothing is cached here. Resolve
// maps a file path to its owning root and its root-relative path.
package roots
