// Package mock provides an in-memory test double for storage.ObjectStore.
//
// Tests seed objects with Seed and assert on uploads with PutCount and Get.
// Function fields allow failure injection for the existence probe and the
// upload path.
package mock
