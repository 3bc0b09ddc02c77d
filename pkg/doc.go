// Package pkg holds the reqsmith libraries.
//
// The pipeline runs scanner → classifier → mapper → reconciler:
//
//	Python sources
//	      ↓ scan       extract top-level imports, skip broken files
//	      ↓ python     drop stdlib modules, map import → PyPI name
//	      ↓ pip        look up installed versions
//	      ↓ reconcile  generate / check / update requirements.txt
//
// Supporting packages: [manifest] for the requirements.txt format,
// [integrations] + [integrations/pypi] for cached registry lookups,
// [cache] for the response cache backends, [render] for dependency
// diagrams, [errors], [observability] and [buildinfo] for the ambient
// concerns.
package pkg
