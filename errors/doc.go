/*
Package errors provides semantic error types for polycodec.

The package defines the failure modes of type resolution with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrConfiguration        = errors.New("invalid configuration")
	    ErrUnsupportedType      = errors.New("unsupported type")
	    ErrUnknownDiscriminator = errors.New("unknown discriminator")
	    ErrNoConvention         = errors.New("no discriminator convention")
	    ErrInvalidInput         = errors.New("invalid input")
	)

Usage:

	var shape Shape
	if err := opts.Unmarshal(data, &shape); err != nil {
	    if errors.IsUnknownDiscriminator(err) {
	        // the payload names a type this configuration never registered
	    }
	    return err
	}

	var ude *errors.UnknownDiscriminatorError
	if stderrors.As(err, &ude) {
	    log.Printf("bad tag %q for %s", ude.Value, ude.Expected)
	}

Configuration and classification errors indicate misconfiguration and are returned
as soon as they are detected. Decode errors abort the value being decoded only.
*/
package errors
