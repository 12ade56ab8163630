/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

const (
	UserAgent        = "boylstonchessclub-brackets/0.1.0 (+https://github.com/mikeb26/boylstonchessclub-brackets)"
	WebCacheBucket   = "bopmatic-boylstonchessclub-tdbot-prod-webcache"
	TournamentBucket = "bopmatic-boylstonchessclub-brackets-prod"
)
