// Package services holds cross-cutting helpers shared by the subtitle
// pipeline and its collaborators: the error taxonomy used to classify
// failures (transient, validation, configuration) and context plumbing for
// request correlation identifiers.
package services
