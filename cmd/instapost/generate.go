package main

import (
	"github.com/spf13/cobra"

	"github.com/Deepak-ai-93/instapost/pkg/domain"
)

func newCaptionCmd(a *app) *cobra.Command {
	var photo string

	cmd := &cobra.Command{
		Use:   "caption",
		Short: "Generate an Instagram caption for a photo",
		Long: `Generate an Instagram caption with hashtags for a photo.

Examples:
  instapost caption --photo beach.jpg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, _, err := a.storage(cmd.Context(), photo)
			if err != nil {
				return err
			}
			uri, err := readImageArg(cmd.Context(), reader, photo)
			if err != nil {
				return err
			}
			gen, err := a.generator(cmd.Context())
			if err != nil {
				return err
			}
			res, err := gen.GenerateCaption(cmd.Context(), domain.CaptionRequest{PhotoDataURI: uri})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&photo, "photo", "", "Photo file (local, gs:// or s3://) or image data URI")
	_ = cmd.MarkFlagRequired("photo")
	return cmd
}

func newLogoCmd(a *app) *cobra.Command {
	var req domain.LogoRequest
	var out string

	cmd := &cobra.Command{
		Use:   "logo",
		Short: "Generate a square logo",
		Long: `Generate a square logo for a niche.

Examples:
  instapost logo --niche "Coffee Shop" --description "a steaming cup" --out logo.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, writer, err := a.storage(cmd.Context(), out)
			if err != nil {
				return err
			}
			gen, err := a.generator(cmd.Context())
			if err != nil {
				return err
			}
			res, err := gen.GenerateLogo(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeImages(cmd.Context(), cmd.OutOrStdout(), writer, out, []string{res.LogoImageDataURI})
		},
	}

	cmd.Flags().StringVar(&req.Niche, "niche", "", "Business niche")
	cmd.Flags().StringVar(&req.LogoDescription, "description", "", "What the logo should show")
	cmd.Flags().StringVar(&req.CompanyName, "company", "", "Company name to render (optional)")
	cmd.Flags().StringVar(&out, "out", "", "Output file, local or gs:// (default: print data URI)")
	return cmd
}

func newImageCmd(a *app) *cobra.Command {
	var req domain.ImageRequest
	var base, out string

	cmd := &cobra.Command{
		Use:   "image",
		Short: "Generate an image from a prompt, or edit a base image",
		Long: `Generate an image from a prompt, or edit a base image with an instruction.

Examples:
  instapost image --prompt "A red bicycle" --out bike.png
  instapost image --base photo.png --edit "add a hat to the person" --out edited.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, writer, err := a.storage(cmd.Context(), base, out)
			if err != nil {
				return err
			}
			uri, err := readImageArg(cmd.Context(), reader, base)
			if err != nil {
				return err
			}
			req.BaseImageDataURI = uri

			gen, err := a.generator(cmd.Context())
			if err != nil {
				return err
			}
			res, err := gen.GenerateImage(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeImages(cmd.Context(), cmd.OutOrStdout(), writer, out, res.ImageDataURIs)
		},
	}

	cmd.Flags().StringVar(&req.Prompt, "prompt", "", "Image prompt")
	cmd.Flags().StringVar(&base, "base", "", "Base image file (local, gs:// or s3://) or data URI to edit")
	cmd.Flags().StringVar(&req.EditInstruction, "edit", "", "Edit instruction for the base image")
	cmd.Flags().StringVar(&req.LogoImageURL, "logo-url", "", "Logo image URL or data URI to include (optional)")
	cmd.Flags().StringVar(&out, "out", "", "Output file, local or gs:// (default: print data URI)")
	return cmd
}

func addPostFlags(cmd *cobra.Command, req *domain.PostDetailsRequest) {
	cmd.Flags().StringVar(&req.Niche, "niche", "", "Post niche")
	cmd.Flags().StringVar(&req.Category, "category", "", "Category hint (optional)")
	cmd.Flags().StringVar(&req.ImageDescription, "image-description", "", "What the post image should show (optional)")
	cmd.Flags().StringVar(&req.LogoURL, "logo-url", "", "Logo image URL or data URI (optional)")
	cmd.Flags().StringVar(&req.ContactInfo, "contact", "", "Contact information to include (optional)")
	cmd.Flags().StringVar(&req.HookStyle, "hook-style", "", "Style of the opening hook (optional)")
}

func newPostDetailsCmd(a *app) *cobra.Command {
	var req domain.PostDetailsRequest

	cmd := &cobra.Command{
		Use:   "post-details",
		Short: "Generate captions, hashtags and an image prompt for a post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := a.generator(cmd.Context())
			if err != nil {
				return err
			}
			res, err := gen.GeneratePostDetails(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	addPostFlags(cmd, &req)
	return cmd
}

func newPostCmd(a *app) *cobra.Command {
	var req domain.PostDetailsRequest
	var out string

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Generate post details and the matching post graphic",
		Long: `Generate post details, then the post graphic from the generated image prompt.

Examples:
  instapost post --niche "Minimalist Home Office Setup" --out post.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, writer, err := a.storage(cmd.Context(), out)
			if err != nil {
				return err
			}
			gen, err := a.generator(cmd.Context())
			if err != nil {
				return err
			}
			res, err := gen.GeneratePost(cmd.Context(), req)
			if err != nil {
				return err
			}
			if out == "" {
				return printJSON(cmd.OutOrStdout(), res)
			}
			if err := printJSON(cmd.OutOrStdout(), res.Details); err != nil {
				return err
			}
			return writeImages(cmd.Context(), cmd.OutOrStdout(), writer, out, res.ImageDataURIs)
		},
	}
	addPostFlags(cmd, &req)
	cmd.Flags().StringVar(&out, "out", "", "Output file for the post graphic (default: include data URI in JSON)")
	return cmd
}
