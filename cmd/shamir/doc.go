/*
Command shamir recovers a secret from a share payload that may contain one
corrupted share.

	shamir recover -i shares.json
	shamir recover --storage file:///var/lib/shamir --payload-id <hex> --save-report --output json
	shamir recover --server http://127.0.0.1:8080 < shares.json
	shamir split --secret 1234 -n 5 -k 3 --corrupt 1 > shares.json
	shamir store -i shares.json --storage s3://bucket/shamir

Text output is two lines: the secret (an integer, or num/den), then the label
of the inconsistent share or NONE.
*/
package main
