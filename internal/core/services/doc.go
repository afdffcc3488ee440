// Package services implements the driving ports.
//
// Chunking, fingerprints, the cosine scan, hybrid reranking and
// snippet selection are plain functions over data already in memory.
// Only the service types around them call driven ports.
package services
