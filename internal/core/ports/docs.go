// Package ports defines the contracts between the bookstore core and its adapters:
// repositories for each aggregate, the two forms of transaction scope, and the
// collaborators (notification, cache) that only ever run after a commit.
package ports
