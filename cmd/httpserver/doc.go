/*
Command httpserver runs the reconstruction service.

	httpserver --listen-addr 0.0.0.0:8080 --metrics-addr 0.0.0.0:8090 \
	    --storage file:///var/lib/shamir --storage s3://archive-bucket/shamir?region=eu-west-1 \
	    --workers 4 --max-candidates 100000

See package httpserver for the routes.
*/
package main
