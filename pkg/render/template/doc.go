// Package template defines the template engine seam used by the inline
// renderer, with a pongo2 backed adapter in the gotemplate subpackage.
package template
