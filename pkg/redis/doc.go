// Package redis connects to Redis with go-redis/v9, retrying while the server
// comes up, and exposes a readiness check. Redis is optional for the service;
// callers decide what to do when REDIS_URL is empty.
package redis
