/*
 * Copyright 2025 The Yorkie Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package pokeapi

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"syscall"
	"time"
)

func (c *Client) withExponentialBackoff(ctx context.Context, endpoint string, fn func() (int, error)) (int, error) {
	var retries uint64
	for {
		statusCode, err := fn()
		if !shouldRetry(statusCode, err) {
			return statusCode, err
		}
		if retries >= c.options.MaxRetries {
			return statusCode, fmt.Errorf("%w after %d attempts: %w", ErrUpstreamUnavailable, retries+1, err)
		}

		waitBeforeRetry := waitInterval(retries, c.options.MaxWaitInterval)
		c.logger.Warnf("retry %s in %s: %v", endpoint, waitBeforeRetry, err)
		c.metrics.AddRetry(endpoint)

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(waitBeforeRetry):
		}

		retries++
	}
}

// waitInterval returns the interval of given retries. (2^retries * 100) milliseconds.
func waitInterval(retries uint64, maxWaitInterval time.Duration) time.Duration {
	interval := time.Duration(math.Pow(2, float64(retries))) * 100 * time.Millisecond
	if maxWaitInterval < interval {
		return maxWaitInterval
	}

	return interval
}

// shouldRetry returns true if the given error should be retried.
// Refer to https://github.com/kubernetes/kubernetes/search?q=DefaultShouldRetry
func shouldRetry(statusCode int, err error) bool {
	// If the connection is reset, we should retry.
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.ECONNRESET
	}

	return statusCode == http.StatusInternalServerError ||
		statusCode == http.StatusBadGateway ||
		statusCode == http.StatusServiceUnavailable ||
		statusCode == http.StatusGatewayTimeout ||
		statusCode == http.StatusTooManyRequests
}
