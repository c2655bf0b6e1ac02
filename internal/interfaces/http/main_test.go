package httpinterface_test

import "context"

var ctx = context.Background()
