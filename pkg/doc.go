// Package pkg provides the core libraries behind neobrew, a concurrent
// front end for the Homebrew formula and cask catalogs.
//
// # Overview
//
// neobrew resolves one or more formula or cask names against Homebrew's
// public JSON catalogs, flattens each result's dependency tree, fetches
// every resolved package's bottle payload, and streams it through a
// generic fan-out pipeline that can hash, write, and extract it at once.
// The pkg directory is organized into three layers:
//
//  1. Shared runtime ([appctx], [neobrewerr])
//  2. Catalog resolution ([artifact], [cache], [registry])
//  3. Streaming fan-out ([pipeline], [pipeline/operator])
//
// # Architecture
//
// The typical data flow through neobrew:
//
//	CLI names
//	     ↓
//	[registry] package (resolve + flatten dependency tree)
//	     ↓
//	HTTP bottle download
//	     ↓
//	[pipeline] package (fan out to N operators over one byte stream)
//	     ↓
//	digest, extracted files, or whatever else an operator produces
//
// # Main Packages
//
// [appctx] - The process-wide Context: cache directory, logger, lazily
// built HTTP client, and the single semaphore shared by resolution and
// streaming to enforce one global concurrency bound.
//
// [neobrewerr] - The structured error taxonomy every package in this
// module raises through: a Code plus a wrapped cause, with helpers for
// branching on failure kind and producing user-facing messages.
//
// [artifact] - The Package interface and its Formula/Cask
// implementations: wire-format decoding, bottle URL selection, and
// pointer-identity-preserving dependency tree flattening.
//
// [cache] - The fixed-layout on-disk JSON cache every resolved catalog
// response is persisted to, plus a retry-with-backoff helper for
// transient network failures.
//
// [registry] - FormulaRegistry and CaskRegistry: concurrent,
// deduplicated, cycle-safe resolution against the two catalogs, coordinated
// by the Registries façade under a Both/FormulaOnly/CaskOnly strategy.
//
// [pipeline] - The generic streaming fan-out Builder: register any number
// of push or pull operators against a future byte stream and collect
// their typed outputs once it closes.
//
// [pipeline/operator] - Concrete operators: Hasher (streaming digest),
// Writer (buffered file sink), Extractor (gzip+tar bottle unpack).
package pkg
