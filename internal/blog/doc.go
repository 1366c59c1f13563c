// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

// Package blog provides post authoring and paginated listing.
//
// Posts belong to an author from the auth domain. Listings are paginated
// newest-first; only an author may update or delete their own posts.
package blog
