// Package pypi implements a client for the PyPI JSON API.
//
// The client fetches release metadata from https://pypi.org/pypi/<name>/json
// and caches responses through the shared integrations client. reqsmith uses
// it to compare installed and pinned versions against the newest release in
// the outdated command; the generate/check/update pipeline never touches the
// network.
package pypi
