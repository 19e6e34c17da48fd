// Package s3 implements storage.ObjectStore on an S3-compatible service
// using aws-sdk-go-v2.
//
// Credentials and the endpoint come from the environment (SE_ACCESS_KEY,
// SE_SECRET_KEY, SE_HOST_URL), with .env file support via godotenv. The
// store targets S3-compatible providers, so path-style addressing is
// always used.
package s3
