// Package upload tracks the images a user selected for the attached images
// inline and turns a finished transfer into the form payload the admin expects.
//
// The transfer itself is delegated to an external transport. The Uploader is
// composed from a formset.Source (page access), an optional capability gate
// and optional preview/resize processors instead of extending a concrete
// uploader type.
package upload
